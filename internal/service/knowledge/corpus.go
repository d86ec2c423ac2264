// Package knowledge loads the support knowledge base and picks the passages
// that are most relevant to a customer question.
package knowledge

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultChunkSize is the chunk length in runes.
	DefaultChunkSize = 500
	// DefaultTopK is the number of chunks handed to the model.
	DefaultTopK = 3

	// DefaultContext is used when the knowledge base holds nothing to search.
	DefaultContext = "Default context: Lee Electronics provides quality electronic products and services."

	defaultDocument = "Default knowledge: Lee Electronics is a technology company."
	separator       = "\n---\n"
)

// Files lists the knowledge base documents in load order.
var Files = []string{
	"internal_docs.txt",
	"policy_documents.txt",
	"product_descriptions.txt",
	"contact_doc.txt",
}

// Retriever returns prompt context for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) string
}

// Corpus is the chunked knowledge base.
type Corpus struct {
	Chunks []string
}

// Load reads Files from dir. Missing or unreadable files are logged and
// skipped; when none can be read the corpus holds a single default document.
func Load(dir string, chunkSize int, log logrus.FieldLogger) *Corpus {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var docs []string
	for _, name := range Files {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.WithField("path", path).Warn("knowledge file not found")
			continue
		case err != nil:
			log.WithError(err).WithField("path", path).Error("failed to read knowledge file")
			continue
		}
		docs = append(docs, string(data))
	}

	if len(docs) == 0 {
		log.WithField("dir", dir).Warn("no knowledge base documents found")
		docs = []string{defaultDocument}
	}

	return FromDocuments(docs, chunkSize)
}

// FromDocuments chunks each document independently.
func FromDocuments(docs []string, chunkSize int) *Corpus {
	c := &Corpus{}
	for _, doc := range docs {
		c.Chunks = append(c.Chunks, Chunk(doc, chunkSize)...)
	}
	return c
}

// Chunk splits text into consecutive pieces of at most size runes.
func Chunk(text string, size int) []string {
	if size < 1 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func join(chunks []string) string {
	return strings.Join(chunks, separator)
}
