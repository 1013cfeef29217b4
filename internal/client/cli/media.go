package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
)

// Upload reads an image file and pushes it to object storage as the
// signed-in user's avatar or cover, then prints the public URL.
func (a *App) Upload(ctx context.Context, kind string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))

	url, err := a.authService.UploadMedia(ctx, kind, contentType, data)
	if err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	fmt.Println("Uploaded:", url)
	return nil
}
