package output

// File names written into the output directory.
const (
	ResultsBase = "MLST_results"     // + "." + format extension
	CallsFile   = "MLST_calls.jsonl" // per-(locus, genome) diagnostics
	SummaryFile = "MLST_summary.yaml"
)

// Output format identifiers accepted by --formats.
const (
	FormatCSV   = "csv"
	FormatTab   = "tab"
	FormatTSV   = "tsv"
	FormatExcel = "excel"
	FormatXLSX  = "xlsx"
	FormatXLS   = "xls"
	FormatJSON  = "json"
	FormatText  = "text"
)

// Cell renderings for a locus without a match.
const (
	EmptyCell = ""  // delimited and spreadsheet files
	TextNA    = "-" // aligned stdout table
)
