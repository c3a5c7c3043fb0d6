package conv

import "framework"

type Kernel struct{}

type Middleware struct{}

func (Middleware) Handle() {}

func (*Middleware) Terminate() {}

type Greet struct {
	framework.Command
	Description string
	Signature   string
}

type Base struct {
	*framework.Command
}

type Deploy struct {
	Base
	Description string
}

type Worker struct {
	framework.InteractsWithQueue
}

type Queue interface {
	framework.InteractsWithQueue
	Push()
}

type Names = Kernel

func helper() {
	type local struct{}
	_ = local{}
}
