package handlers

import (
	"fmt"
	"net/http"
	"strconv"
)

// Report parameters bind as NULL when absent, so the catalog SQL's
// "$n IS NULL OR ..." filters disable themselves.

func textParam(r *http.Request, name string) any {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return nil
}

func textParamDefault(r *http.Request, name, def string) any {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

func intParam(r *http.Request, name string) (any, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be an integer", name)
	}
	return n, nil
}

func intParamDefault(r *http.Request, name string, def int) (any, error) {
	v, err := intParam(r, name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return def, nil
	}
	return v, nil
}
