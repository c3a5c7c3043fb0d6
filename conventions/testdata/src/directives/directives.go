package directives

type T struct{}

func (T) A() {} // want `method A is possibly unused`

func (T) B() {} //nolint:PossiblyUnusedMethod

//nolint:UnusedClass,convsuppress
func (T) C() {}

// nolint:OtherIssue
func (T) D() {} // want `method D is possibly unused`
