package ratelimit

import "time"

// Window is the trailing interval over which admissions are counted.
const Window = time.Minute

// Operation keys a sliding window per kind of protected work.
type Operation string

const (
	// OperationFindMatch gates the end-to-end match pipeline.
	OperationFindMatch Operation = "find_match"
	// OperationModelAssist budgets calls to the external language model.
	OperationModelAssist Operation = "model_assist"
)

const (
	DefaultGeneralLimit = 20
	DefaultModelLimit   = 10
)
