package provis

type LoadingContext interface {
	LoadStep(def StepDef) (Step, error)
}

type Step interface {
	GetName() string
	Run(context ExecutionContext) (StepResult, error)
	Silenced() bool
	ContinuesOnError() bool
}

// StepResult carries a step's textual output plus the execution context to
// be applied to the steps that follow. Steps that don't mutate the context
// must echo back the context they were given.
type StepResult struct {
	Output  string
	Context ExecutionContext
}

type StepLoader interface {
	LoadStep(def StepDef, context LoadingContext) (Step, error)
}
