package framework

type Command struct {
	Description string
}

func (c *Command) Run() {}

type InteractsWithQueue interface {
	Release()
}
