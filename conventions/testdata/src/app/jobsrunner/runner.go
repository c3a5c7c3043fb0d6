package jobsrunner

type Runner struct{} // want `type Runner is unused`

func (Runner) Handle() {} // want `method Handle is possibly unused`
