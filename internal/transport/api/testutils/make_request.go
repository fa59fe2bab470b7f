package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest прогоняет запрос через Router без сети и возвращает ответ рекордера.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) *http.Response {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

// WithJSON выставляет заголовки запроса с JSON телом.
func WithJSON() func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers["Content-Type"] = "application/json"
		fn.headers["Accept"] = "application/json"
	}
}

// DecodeJSON читает и закрывает тело ответа.
func DecodeJSON(res *http.Response, dst any) error {
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %s", err.Error())
	}
	return nil
}
