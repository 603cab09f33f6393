package model

import (
	"sort"
)

type RepositoryIdentity struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (id RepositoryIdentity) String() string {
	return id.Owner + "/" + id.Name
}

// RepositoryMetadata is fetched once per analysis and never modified afterwards
type RepositoryMetadata struct {
	FullName        string  `json:"fullName"`
	Description     *string `json:"description,omitempty"`
	PrimaryLanguage *string `json:"primaryLanguage,omitempty"` // nil for repositories without detected code
	SizeKB          int     `json:"sizeKB"`
	Stars           int     `json:"stars"`
	Forks           int     `json:"forks"`
}

// LanguageHistogram maps a language name to the number of bytes written in it
type LanguageHistogram map[string]int

type LanguageShare struct {
	Language string
	Bytes    int
}

// Ordered returns languages by descending byte count, ties sorted by name
func (h LanguageHistogram) Ordered() []LanguageShare {
	shares := make([]LanguageShare, 0, len(h))
	for lang, bytes := range h {
		shares = append(shares, LanguageShare{Language: lang, Bytes: bytes})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Language < shares[j].Language
	})

	return shares
}

// Primary returns the most used language, or an empty string for an empty histogram
func (h LanguageHistogram) Primary() string {
	ordered := h.Ordered()
	if len(ordered) == 0 {
		return ""
	}
	return ordered[0].Language
}

func (h LanguageHistogram) TotalBytes() int {
	total := 0
	for _, bytes := range h {
		if bytes > 0 {
			total += bytes
		}
	}
	return total
}

type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "dir"
)

// TreeEntry is a single node of a directory listing
// Path is relative to the repository root
type TreeEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Kind EntryKind `json:"kind"`
}

func (e TreeEntry) IsFile() bool {
	return e.Kind == EntryKindFile
}

func (e TreeEntry) IsDirectory() bool {
	return e.Kind == EntryKindDirectory
}
