package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadabilityExtract(t *testing.T) {
	paragraphs := make([]string, 8)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("<p>Parágrafo %d sobre o crescimento do mercado de telemedicina no Brasil, com dados de adoção e projeções para os próximos anos.</p>", i+1)
	}
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="pt-BR">
<head><title>Mercado de telemedicina</title></head>
<body>
<nav>menu que deve ser descartado</nav>
<article>
<h1>Mercado de telemedicina no Brasil</h1>
%s
</article>
</body>
</html>`, strings.Join(paragraphs, "\n"))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	ex := NewReadability(5 * time.Second)
	result, err := ex.Extract(context.Background(), ts.URL+"/artigo")
	require.NoError(t, err)

	assert.Contains(t, result.Content, "crescimento do mercado de telemedicina")
	assert.Equal(t, len(result.Content), result.Length)
	assert.Greater(t, result.Length, 200)
}

func TestReadabilityExtractErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	ex := NewReadability(5 * time.Second)
	_, err := ex.Extract(context.Background(), ts.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestReadabilityExtractInvalidURL(t *testing.T) {
	ex := NewReadability(time.Second)
	_, err := ex.Extract(context.Background(), "://not-a-url")
	require.Error(t, err)
}
