package output

// Formats accepted by the writers.
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)
