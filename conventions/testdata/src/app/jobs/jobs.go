package jobs

type SendInvoice struct {
	amount int // want `field amount is not set in constructor`
}

func (SendInvoice) Handle() {}

func (SendInvoice) Failed() {} // want `method Failed is possibly unused`
