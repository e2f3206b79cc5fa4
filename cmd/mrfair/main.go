package main

import (
	"flag"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/air/websocket"
)

//go-build: CGO_ENABLED=0

var listenAddr = ":8802"

func main() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listen address of the websocket relay.")
	flag.Parse()
	glog.Infof("relay listening on %s", listenAddr)
	if err := http.ListenAndServe(listenAddr, NewHandler()); err != nil {
		glog.Fatal(err)
	}
}

// NewHandler serves the relay on /air.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/air", websocket.NewRelay())
	return mux
}
