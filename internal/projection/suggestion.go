package projection

// SuggestionCode は診断メッセージの種別。表示文言はコードから導出する。
type SuggestionCode string

const (
	// SuggestionNone はデータ未入力・損益ゼロ時のプレースホルダ
	SuggestionNone SuggestionCode = "none"
	// SuggestionLossWarning は赤字警告
	SuggestionLossWarning SuggestionCode = "loss_warning"
	// SuggestionSlowPayback は黒字だが投資回収が 1 年超
	SuggestionSlowPayback SuggestionCode = "slow_payback"
	// SuggestionHealthy は健全な黒字
	SuggestionHealthy SuggestionCode = "healthy"
)

// Render returns the display fragment for the code. The text is engine
// generated and trusted; it may contain <b> spans and must be rendered as
// rich text. Never route user-supplied content through here.
func (c SuggestionCode) Render() string {
	switch c {
	case SuggestionLossWarning:
		return "⚠️ <b>Bahaya!</b> Biaya operasional lebih besar dari keuntungan porsi. Naikin harga atau kurangi pengeluaran bulanan."
	case SuggestionSlowPayback:
		return "⏳ <b>Balik modal lambat.</b> Butuh lebih dari 1 tahun. Coba naikin target harian biar lebih cepet."
	case SuggestionHealthy:
		return "✅ <b>Proyeksi sehat!</b> Pertahanin margin dan fokus gedein volume penjualan."
	default:
		return "Analisis akan muncul setelah data dimasukkan."
	}
}
