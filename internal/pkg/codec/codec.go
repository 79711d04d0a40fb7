// Package codec reads source images in any supported format and writes
// results as PNG, the only output format that keeps the alpha channel.
package codec

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/bgremove/internal/entity"
)

var supportedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsSupported reports whether a file name carries a decodable image extension.
func IsSupported(name string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(name))]
}

// Decode sniffs the format from content. GIFs yield their first frame.
// EXIF orientation is ignored so pixels are used exactly as stored.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}
	return img, nil
}

func Open(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(file)
}

func Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Save writes img as PNG to path, creating parent directories.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
