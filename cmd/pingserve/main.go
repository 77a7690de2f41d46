// Command pingserve serves the built web bundle. Every path that does not
// match a real file falls back to index.html so client-side routing works
// on hard refresh.
package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load() //nolint:errcheck // a missing .env is fine

	dir := os.Getenv("PING_STATIC_DIR")
	if dir == "" {
		dir = "./dist"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK\n")) //nolint:errcheck
	}).Methods("GET")
	r.PathPrefix("/").Handler(spaHandler(dir))

	log.Printf("pingserve: serving %s on :%s", dir, port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

// spaHandler serves files from dir, answering index.html for any path that
// does not exist on disk.
func spaHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reject path traversal before touching the filesystem.
		if strings.Contains(r.URL.Path, "..") {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		full := filepath.Join(dir, filepath.Clean(r.URL.Path))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
