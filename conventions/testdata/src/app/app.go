package app

import "framework"

type Kernel struct{}

type Kernel2 struct{} // want `type Kernel2 is unused`

type Middleware struct { // want `type Middleware is unused`
	next func() // want `field next is not set in constructor`
}

func (Middleware) Handle() {}

func (Middleware) Terminate() {} // want `method Terminate is possibly unused`

func (Middleware) Boot() {} //nolint:PossiblyUnusedMethod

type Greet struct { // want `type Greet is unused`
	framework.Command
	Description string
}

func (g *Greet) Handle() {} // want `method Handle is possibly unused`

type Worker struct { // want `type Worker is unused`
	framework.InteractsWithQueue
	tries int
}

type Plain struct { // want `type Plain is unused`
	name string // want `field name is not set in constructor`
}

//nolint:UnusedClass
type Legacy struct{}

//nolint:convsuppress
type Ignored struct {
	count int // want `field count is not set in constructor`
}
