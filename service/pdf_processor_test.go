package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFProcessorRejectsGarbage(t *testing.T) {
	p := NewPDFProcessor()

	_, err := p.ExtractPages([]byte("not a pdf"), "")
	assert.ErrorContains(t, err, "failed to open pdf")

	_, err = p.ExtractPages([]byte("not a pdf"), "geheim")
	assert.ErrorContains(t, err, "failed to decrypt pdf")
}
