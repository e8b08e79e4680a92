// Package util provides utility functions for content hashing and front matter parsing.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
)

// FrontMatter is the TOML header of an importable post file, delimited by
// "%%%" lines.
type FrontMatter struct {
	Title    string    `toml:"title"`
	Author   string    `toml:"author"`
	Summary  string    `toml:"summary"`
	Category string    `toml:"category"`
	Date     time.Time `toml:"date"`
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// GetFrontMatter splits md into its front matter and the remaining body.
// The front matter must open the document.
func GetFrontMatter(md []byte) (*FrontMatter, []byte, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	delimiter := []byte("%%%")

	if !bytes.HasPrefix(md, delimiter) {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	rest := md[len(delimiter):]
	end := bytes.Index(rest, append([]byte("\n"), delimiter...))
	if end == -1 {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	info := &FrontMatter{}
	if _, err := toml.Decode(string(rest[:end]), info); err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	body := rest[end+1+len(delimiter):]
	body = bytes.TrimLeft(body, "\n")

	return info, body, nil
}
