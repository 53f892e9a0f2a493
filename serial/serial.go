// Package serial defines the descriptor-based contract of the asynchronous
// serial transport consumed by the control core. The transport's own
// implementation is external; the core only submits descriptor sets, polls
// busy state, and consumes receive completions.
package serial

// MaxTxDescriptors is the size of a descriptor set submitted as one unit.
const MaxTxDescriptors = 4

// TxDescriptor is one (buffer, length) element of a descriptor set. The slice
// is owned by the submitter until the transport reports not-busy again.
type TxDescriptor struct {
	Buf []byte
}

// CompletionKind is the tri-state result of the last receive operation.
type CompletionKind uint8

const (
	CompletionNone CompletionKind = iota
	CompletionData
	CompletionOther
)

// RxDescriptor arms one receive. Buf is caller-owned storage; the transport
// fills Kind and Len when the receive completes. The caller clears Kind and
// resubmits to re-arm.
type RxDescriptor struct {
	Buf  []byte
	Kind CompletionKind
	Len  int
}

// Transport is the asynchronous serial collaborator.
type Transport interface {
	// SubmitTransmit submits a whole descriptor set as one transmission.
	// false means the transport is currently busy; retry later. Once
	// accepted, the set is sent in order as a single unit.
	SubmitTransmit(descs []TxDescriptor) bool
	TransmitBusy() bool

	// SubmitReceive arms one receive into d. Errors are administrative
	// (nil/empty buffer, a receive already armed), not transfer failures.
	SubmitReceive(d *RxDescriptor) error

	// Service runs the transport's background processing; called once per
	// event-loop iteration.
	Service()
}
