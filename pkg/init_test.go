package provis

func init() {
	Register(NewRunStepLoader())
	Register(NewUserStepLoader())
	Register(NewWorkdirStepLoader())
	Register(NewEnvStepLoader())
	Register(NewFetchStepLoader())
	Register(NewPackagesStepLoader())
}
