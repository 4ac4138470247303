package constants

// Stage is the state of a single summarize request as it moves through the pipeline.
type Stage string

// Stable values (logged as-is).
const (
	StageValidating  Stage = "VALIDATING"
	StageExtracting  Stage = "EXTRACTING"
	StageOCRFallback Stage = "OCR_FALLBACK" // embedded PDF text was empty
	StageSummarizing Stage = "SUMMARIZING"
	StageAssembling  Stage = "ASSEMBLING"
	StageDone        Stage = "DONE"
	StageFailed      Stage = "FAILED" // terminal failure
)
