package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

func router(config *Global) http.Handler {
	router := mux.NewRouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h := handler{Global: config, router: router}

	GET.HandleFunc("/", h.Index).Name("index")
	GET.HandleFunc("/dictionary", h.Dictionary).Name("dictionary")
	GET.HandleFunc("/dictionary/columns", h.Columns).Name("columns")
	GET.HandleFunc("/image/{source}/{batch}/{plate}/{well}/{site:[0-9]+}/{channel}", h.Image).Name("image")

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router)
}
