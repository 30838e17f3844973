package app

import (
	"log"
	"mime"
)

func init() {
	// Media uploads rely on these resolving consistently across platforms.
	ensureMimeType(".webp", "image/webp")
	ensureMimeType(".svg", "image/svg+xml")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("app: failed to register MIME type for %s: %v", ext, err)
	}
}
