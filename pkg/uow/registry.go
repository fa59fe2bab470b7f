package uow

type RepositoryName string
type Repository any

// Registry фабрики репозиториев по имени. E - то, к чему привязывается репозиторий:
// соединение/транзакция postgres (DBTX) или буфер изменений in-memory хранилища.
type Registry[E any] struct {
	factories map[RepositoryName]func(E) Repository
}

func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{factories: make(map[RepositoryName]func(E) Repository)}
}

// Register регистрирует фабрику. Если имя уже занято, возвращает ErrRepositoryAlreadyRegistered.
func (r *Registry[E]) Register(name RepositoryName, factory func(E) Repository) error {
	if _, ok := r.factories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	r.factories[name] = factory
	return nil
}

// Resolve создает репозиторий name поверх executor или возвращает ErrRepositoryNotRegistered.
func (r *Registry[E]) Resolve(name RepositoryName, executor E) (Repository, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	return factory(executor), nil
}

type boundTX[E any] struct {
	registry *Registry[E]
	executor E
}

// Bind возвращает TX, репозитории которого работают поверх executor.
func Bind[E any](registry *Registry[E], executor E) TX {
	return boundTX[E]{registry: registry, executor: executor}
}

func (t boundTX[E]) Get(name RepositoryName) (Repository, error) {
	return t.registry.Resolve(name, t.executor)
}

// GetAs возвращает репозиторий транзакции с именем name приведенный к типу T
// или ошибки ErrRepositoryNotRegistered, ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}

// GetRepositoryAs возвращает репозиторий вне транзакции по имени name и приводит его к типу T.
// Возвращает ошибки ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return r, nil
}
