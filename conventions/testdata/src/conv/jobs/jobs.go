package jobs

type SendInvoice struct{}

func (SendInvoice) Handle() {}

func (SendInvoice) Failed() {}
