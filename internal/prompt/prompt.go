// Package prompt builds the model-facing prompt from the fixed rule block,
// document excerpts, and the user question.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/arpusjateng/docchat-backend/internal/domain"
)

// DefaultMaxDocChars caps each document excerpt. The cap exists because the
// downstream model has a bounded context window; truncation is purely
// positional (character count, not token count, not sentence-aware).
const DefaultMaxDocChars = 4000

// Rules is the fixed system rule block prefixed verbatim to every prompt.
const Rules = `
Anda adalah asisten analisis dokumen yang membantu staf dan publik di Dinas Kearsipan dan Perpustakaan Provinsi Jawa Tengah (Dinas Arpus Jateng).
Tugas utama Anda adalah menganalisis dokumen arsip, perpustakaan, dan dokumen resmi lainnya serta menjawab pertanyaan yang relevan.
**ATURAN UTAMA:**
1.  **FOKUS TOPIK:** Anda **HANYA** boleh menjawab pertanyaan yang berkaitan dengan:
    a. Isi dari dokumen yang diberikan.
    b. Informasi umum yang relevan dengan konteks Dinas Kearsipan dan Perpustakaan Provinsi Jawa Tengah (Dinas Arpus Jateng).
2.  **TOLAK PERTANYAAN TIDAK RELEVAN:** Jika pertanyaan pengguna berada di luar dua topik di atas (contoh: pertanyaan tentang cuaca, resep, pemrograman, atau topik umum lainnya), Anda **HARUS** menolak dengan sopan. Gunakan jawaban ini: "Maaf, saya hanya dapat merespons pertanyaan yang berkaitan dengan analisis dokumen atau informasi seputar Dinas Kearsipan dan Perpustakaan Provinsi Jawa Tengah."
3.  **BAHASA:** Selalu gunakan Bahasa Indonesia yang baik dan formal.
---
`

const (
	contextHeader   = "Konteks dari dokumen yang disediakan:\n"
	withDocsClause  = "\nBerdasarkan aturan di atas dan konteks dari dokumen yang disediakan, jawablah pertanyaan berikut.\n"
	fallbackClause  = "\nBerdasarkan aturan di atas dan pengetahuan umum Anda tentang Dinas Kearsipan dan Perpustakaan Provinsi Jawa Tengah, jawablah pertanyaan berikut. Tidak ada dokumen yang disediakan.\n"
	questionPattern = "\nPertanyaan Pengguna: \"%s\""
)

// Assembler builds prompts with a configurable per-document excerpt cap.
type Assembler struct {
	// MaxDocChars caps each document excerpt; DefaultMaxDocChars when <= 0.
	MaxDocChars int
}

// Build assembles the prompt for one chat turn. Documents are listed in the
// order given; a document with empty extracted text is still listed with an
// empty body so the prompt degrades gracefully rather than omitting it. When
// no documents are given, the general-knowledge fallback clause is used.
func (a Assembler) Build(userMessage string, docs []domain.Document) string {
	limit := a.MaxDocChars
	if limit <= 0 {
		limit = DefaultMaxDocChars
	}

	var b strings.Builder
	b.WriteString(Rules)

	if len(docs) > 0 {
		b.WriteString(contextHeader)
		for i, d := range docs {
			b.WriteString(fmt.Sprintf("\n--- DOKUMEN %d: %s ---\n%s\n", i+1, d.Filename, truncate(d.TextContent, limit)))
		}
		b.WriteString(withDocsClause)
	} else {
		b.WriteString(fallbackClause)
	}

	b.WriteString(fmt.Sprintf(questionPattern, userMessage))
	return b.String()
}

// truncate cuts s at exactly max characters. Positional on purpose: no
// word-boundary adjustment.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
