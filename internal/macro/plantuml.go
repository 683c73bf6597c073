package macro

import (
	"bytes"
	"compress/flate"
	"fmt"
	"strings"

	"github.com/gerunddev/creolewiki/internal/page"
)

// PlantUMLServer is where diagram images are fetched from
const PlantUMLServer = "http://www.plantuml.com/plantuml/svg/"

const plantUMLAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// PlantUML renders its argument text as a PlantUML diagram image
func PlantUML() Macro {
	return New("plantuml", Wiki, func(_ page.Info, args string) (string, error) {
		slug, err := EncodePlantUML(args)
		if err != nil {
			return "", err
		}
		return "{{" + PlantUMLServer + slug + "}}", nil
	})
}

// EncodePlantUML compresses diagram text the way the PlantUML server expects
// it in a URL: raw deflate, then PlantUML's own base64 alphabet.
func EncodePlantUML(text string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create deflate writer: %w", err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("failed to deflate diagram: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to deflate diagram: %w", err)
	}
	return encode64(buf.Bytes()), nil
}

// encode64 packs each 3 bytes into 4 characters, zero padding the tail
func encode64(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 3 {
		var chunk [3]byte
		copy(chunk[:], data[i:])
		b.WriteByte(plantUMLAlphabet[chunk[0]>>2])
		b.WriteByte(plantUMLAlphabet[(chunk[0]&0x3)<<4|chunk[1]>>4])
		b.WriteByte(plantUMLAlphabet[(chunk[1]&0xf)<<2|chunk[2]>>6])
		b.WriteByte(plantUMLAlphabet[chunk[2]&0x3f])
	}
	return b.String()
}
