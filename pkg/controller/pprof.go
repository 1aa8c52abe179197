package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofPath is the path prefix under which PprofMux serves profiles.
const PprofPath = "/debug/pprof/"

// PprofMux returns an http.ServeMux exposing net/http/pprof handlers under
// PprofPath. pprof.Index resolves named profiles (heap, goroutine, ...) from
// the full request path, so the mux is mounted without stripping the prefix.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(PprofPath, pprof.Index)
	mux.HandleFunc(PprofPath+"cmdline", pprof.Cmdline)
	mux.HandleFunc(PprofPath+"profile", pprof.Profile)
	mux.HandleFunc(PprofPath+"symbol", pprof.Symbol)
	mux.HandleFunc(PprofPath+"trace", pprof.Trace)

	return mux
}
