package services

// PredefinedQuestions is the fixed set of suggested questions surfaced after
// uploads and alongside chat responses. The wording is user-facing and part of
// the API contract with the frontend.
var PredefinedQuestions = []string{
	"Apa ringkasan dari dokumen ini?",
	"Kapan dokumen ini dibuat dan oleh siapa?",
	"Apa tujuan utama dokumen ini?",
	"Bagaimana relevansi dokumen ini dengan Dinas Arpus Jateng?",
	"Informasi penting apa yang ada dalam dokumen ini?",
	"Bagian mana dari dokumen ini yang membahas tentang [topik spesifik]?",
	"Bisakah Anda menemukan data atau angka penting di dokumen ini?",
	"Apakah ada rekomendasi atau kebijakan yang disebutkan dalam dokumen ini?",
	"Apa kesimpulan dari dokumen ini?",
}
