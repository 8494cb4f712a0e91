package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/filex"
	"github.com/dmitrijs2005/motordesk/internal/imagemeta"
)

// AddImage stages a local file at the end of the upload queue.
func (a *App) AddImage(ctx context.Context, path string) error {
	name := filepath.Base(path)

	declared := mime.TypeByExtension(filepath.Ext(name))
	if !imagemeta.IsAllowedUpload(declared, name) {
		err := fmt.Errorf("%q: %w", name, common.ErrorInvalidFileType)
		log.Printf("error: %v", err)
		return err
	}

	data, err := filex.ReadFileBounded(path, common.MaxFileSize)
	if err != nil {
		log.Printf("error reading %s: %v", path, err)
		return err
	}

	format := imagemeta.ResolveFormat(data, declared, name)

	img, err := a.uploader.Add(name, format.MIME, data)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Staged %s (%s, %d bytes)", img.FileName, format.Name, img.Size))
	return nil
}

func (a *App) ListImages(_ context.Context) error {
	imgs := a.uploader.Images()
	if len(imgs) == 0 {
		printlnFn("No staged images.")
		return nil
	}

	for i, img := range imgs {
		line := fmt.Sprintf("%d. %-30s %-10s", i+1, img.FileName, img.State)
		if img.AssetID != "" {
			line += " " + img.AssetID
		}
		if img.Error != "" {
			line += " error: " + img.Error
		}
		printlnFn(line)
	}
	return nil
}

// imageID resolves a 1-based position from the listing to a queue id.
func (a *App) imageID(pos string) (string, error) {
	n, err := strconv.Atoi(pos)
	if err != nil {
		return "", fmt.Errorf("not a number: %s", pos)
	}
	imgs := a.uploader.Images()
	if n < 1 || n > len(imgs) {
		return "", fmt.Errorf("no image at position %d", n)
	}
	return imgs[n-1].ID, nil
}

func (a *App) MoveImage(_ context.Context, pos string, up bool) error {
	id, err := a.imageID(pos)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if up {
		err = a.uploader.MoveUp(id)
	} else {
		err = a.uploader.MoveDown(id)
	}
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return a.ListImages(context.Background())
}

func (a *App) RemoveImage(_ context.Context, pos string) error {
	id, err := a.imageID(pos)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.uploader.Remove(id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printlnFn("Removed.")
	return nil
}

// Upload pushes every pending image to the server and reports progress.
func (a *App) Upload(ctx context.Context) error {
	a.uploader.SetProgress(func(uploaded, total int) {
		printlnFn(fmt.Sprintf("Uploaded %d/%d", uploaded, total))
	})
	defer a.uploader.SetProgress(nil)

	if err := a.uploader.UploadAll(ctx); err != nil {
		log.Printf("upload error: %v", err)
		return err
	}
	return a.ListImages(ctx)
}
