// Command staticserve serves the HTML frontend on port 8001, the origin
// the API server's default CORS configuration allows.
package main

import (
	"flag"
	"net/http"

	"goboard/config"
	"goboard/logger"
)

func main() {
	dir := flag.String("dir", "", "directory to serve (default: static.dir from config)")
	addr := flag.String("addr", "", "listen address (default: static.port from config)")
	flag.Parse()

	log := logger.GetLogger()
	cfg := config.GetConfig()

	// Flags override the static section of the config.
	if *dir == "" {
		*dir = cfg.Static.Dir
	}
	if *addr == "" {
		*addr = ":" + cfg.Static.Port
	}

	fs := http.FileServer(http.Dir(*dir))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Static request", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		fs.ServeHTTP(w, r)
	})

	log.Info("Static file server running", map[string]interface{}{
		"addr": *addr,
		"dir":  *dir,
	})

	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatal("Static file server error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
