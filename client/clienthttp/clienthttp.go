// Package clienthttp serves a client's observable state over HTTP for
// debugging and monitoring.
package clienthttp

import (
	"encoding/json"
	"net/http"

	"github.com/rs/cors"
	"github.com/statechannels/clientsdk/client"
)

func New(c *client.Client) http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/", handleSnapshot(c))
	return cors.Default().Handler(m)
}

func handleSnapshot(c *client.Client) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err := enc.Encode(c.Snapshot())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
