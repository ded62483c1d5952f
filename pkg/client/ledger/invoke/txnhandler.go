/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoke

import (
	reqContext "context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/validate"
	"github.com/bankledger/mortgage-sdk-go/pkg/util/concurrent/futurevalue"
)

var logger = logging.NewLogger("mortgagesdk/client")

//ValidationHandler checks the request structurally before any network interaction
type ValidationHandler struct {
	next Handler
}

//Handle validates the request for its kind
func (v *ValidationHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	if err := validateRequest(requestContext); err != nil {
		requestContext.Error = err
		return
	}

	//Delegate to next step if any
	if v.next != nil {
		v.next.Handle(requestContext, clientContext)
	}
}

func validateRequest(rc *RequestContext) error {
	switch rc.Kind {
	case QueryKind, InvokeKind:
		if !validate.IsValidString(rc.Identity) {
			return status.InvalidInputf("user is required")
		}
		if rc.Spec.IsZero() {
			return status.InvalidInputf("request spec is required")
		}
	case RegisterKind:
		if !validate.IsValidString(rc.Registration.Username) {
			return status.InvalidInputf("username is required")
		}
		if !validate.IsValidString(rc.Registration.Affiliation) {
			return status.InvalidInputf("affiliation is required")
		}
	case EnrollKind:
		if !validate.IsValidString(rc.Identity) {
			return status.InvalidInputf("username is required")
		}
		if !validate.IsValidString(rc.Secret) {
			return status.InvalidInputf("password is required")
		}
	default:
		return status.InvalidInputf("unsupported operation [%s]", rc.Kind)
	}
	return nil
}

//MemberHandler resolves the membership handle of the requesting identity
type MemberHandler struct {
	next Handler
}

//Handle resolves the member
func (m *MemberHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	identity := requestContext.Identity
	if requestContext.Kind == RegisterKind {
		identity = requestContext.Registration.Username
	}

	member, err := clientContext.Network.Member(requestContext.Ctx, identity)
	if err != nil {
		requestContext.Error = errors.WithMessage(
			status.Errorf(status.ClientStatus, status.ConnectionFailed, "resolving member [%s] failed: %s", identity, err),
			"member resolution failed")
		return
	}
	requestContext.Member = member

	if m.next != nil {
		m.next.Handle(requestContext, clientContext)
	}
}

//QueryHandler submits a read-only request and settles on the Complete or Error event
type QueryHandler struct {
	next Handler
}

//Handle performs the query
func (q *QueryHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	ctx, cancel := attemptContext(requestContext.Ctx, clientContext)
	defer cancel()

	events, err := requestContext.Member.Query(ctx, toLedgerRequest(requestContext))
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "query submission failed")
		return
	}

	ev, err := awaitTerminal(ctx, events, func(e ledger.Event) bool {
		return e.Kind == ledger.Complete || e.Kind == ledger.Error
	})
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "query failed")
		return
	}

	var payload interface{}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		requestContext.Error = status.Errorf(status.ClientStatus, status.ParseFailed, "query result is not valid JSON: %s", err)
		return
	}
	requestContext.Response.Payload = payload
	requestContext.Response.TxID = ev.TxID

	if q.next != nil {
		q.next.Handle(requestContext, clientContext)
	}
}

//SubmitHandler submits a state-changing request and settles as soon as the
//transaction was accepted for ordering. Commitment is not awaited.
type SubmitHandler struct {
	next Handler
}

//Handle performs the invoke
func (s *SubmitHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	ctx, cancel := attemptContext(requestContext.Ctx, clientContext)
	defer cancel()

	events, err := requestContext.Member.Invoke(ctx, toLedgerRequest(requestContext))
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "invoke submission failed")
		return
	}

	ev, err := awaitTerminal(ctx, events, func(e ledger.Event) bool {
		return e.Kind == ledger.Submitted || e.Kind == ledger.Error
	})
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "invoke failed")
		return
	}
	requestContext.Response.TxID = ev.TxID

	if s.next != nil {
		s.next.Handle(requestContext, clientContext)
	}
}

//RegisterHandler registers a new identity with the CA
type RegisterHandler struct {
	next Handler
}

//Handle performs the registration
func (r *RegisterHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	ctx, cancel := attemptContext(requestContext.Ctx, clientContext)
	defer cancel()

	registrar, err := clientContext.Network.Registrar(ctx)
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "registrar lookup failed")
		return
	}

	reg := requestContext.Registration
	roles := reg.Roles
	if len(roles) == 0 {
		roles = clientContext.Registration.DefaultRoles
	}

	secret, err := requestContext.Member.Register(ctx, &ledger.RegistrationRequest{
		Name:        reg.Username,
		Affiliation: clientContext.Registration.AffiliationGroup,
		Attributes: []ledger.Attribute{
			{Name: "role", Value: reg.Affiliation, ECert: true},
			{Name: "username", Value: reg.Username, ECert: true},
		},
		Roles:     append([]string{}, roles...),
		Registrar: registrar,
	})
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "registration failed")
		return
	}
	requestContext.Response.Secret = secret

	if r.next != nil {
		r.next.Handle(requestContext, clientContext)
	}
}

//EnrollHandler exchanges an enrollment secret for cryptographic material
type EnrollHandler struct {
	next Handler
}

//Handle performs the enrollment
func (e *EnrollHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	ctx, cancel := attemptContext(requestContext.Ctx, clientContext)
	defer cancel()

	enrollment, err := requestContext.Member.Enroll(ctx, requestContext.Secret)
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "enrollment failed")
		return
	}
	if enrollment == nil || len(enrollment.Cert) == 0 {
		requestContext.Error = status.Errorf(status.CAServerStatus, status.EmptyCert, "enrollment of [%s] returned no certificate", requestContext.Identity)
		return
	}
	requestContext.Response.Enrollment = enrollment

	if e.next != nil {
		e.next.Handle(requestContext, clientContext)
	}
}

// awaitTerminal reads events until one satisfies isTerminal. The first
// terminal event settles the attempt; anything emitted afterwards is drained
// and ignored.
func awaitTerminal(ctx reqContext.Context, events <-chan ledger.Event, isTerminal func(ledger.Event) bool) (ledger.Event, error) {
	settled := futurevalue.New()

	go func() {
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					settled.Set(nil, status.Errorf(status.ClientStatus, status.NoTerminalSignal, "event stream closed without a terminal event"))
					return
				}
				if !isTerminal(ev) {
					logger.Debugf("ignoring %s event of tx [%s]", ev.Kind, ev.TxID)
					continue
				}
				if ev.Kind == ledger.Error {
					if !settled.Set(nil, eventError(ev)) {
						logger.Debugf("ignoring late error event of tx [%s]", ev.TxID)
					}
					continue
				}
				if !settled.Set(ev, nil) {
					logger.Debugf("ignoring late %s event of tx [%s]", ev.Kind, ev.TxID)
				}
			case <-ctx.Done():
				settled.Set(nil, status.Errorf(status.ClientStatus, status.Timeout, "no terminal event: %s", ctx.Err()))
				return
			}
		}
	}()

	value, err := settled.Get(reqContext.Background())
	if err != nil {
		return ledger.Event{}, err
	}
	return value.(ledger.Event), nil
}

func eventError(ev ledger.Event) error {
	if ev.Err == nil {
		return status.New(status.LedgerServerStatus, status.Unknown.ToInt32(), "error event without details", nil)
	}
	if status.IsInvalidInput(ev.Err) {
		// only requests rejected before submission are input errors
		s, _ := status.FromError(ev.Err)
		return status.New(status.LedgerServerStatus, status.Unknown.ToInt32(), s.Message, nil)
	}
	return ev.Err
}

func attemptContext(parent reqContext.Context, clientContext *ClientContext) (reqContext.Context, reqContext.CancelFunc) {
	if clientContext.Timeout > 0 {
		return reqContext.WithTimeout(parent, clientContext.Timeout)
	}
	return reqContext.WithCancel(parent)
}

func toLedgerRequest(rc *RequestContext) ledger.Request {
	return ledger.Request{
		ChaincodeID: rc.Spec.ChaincodeID(),
		Fcn:         rc.Spec.Fcn(),
		Args:        rc.Spec.ArgsBytes(),
		Attrs:       rc.Spec.Attrs(),
	}
}

//NewQueryHandler returns the handler chain of a query attempt
func NewQueryHandler(next ...Handler) Handler {
	return NewValidationHandler(
		NewMemberHandler(
			&QueryHandler{next: getNext(next)},
		),
	)
}

//NewInvokeHandler returns the handler chain of an invoke attempt
func NewInvokeHandler(next ...Handler) Handler {
	return NewValidationHandler(
		NewMemberHandler(
			&SubmitHandler{next: getNext(next)},
		),
	)
}

//NewRegisterHandler returns the handler chain of a registration attempt
func NewRegisterHandler(next ...Handler) Handler {
	return NewValidationHandler(
		NewMemberHandler(
			&RegisterHandler{next: getNext(next)},
		),
	)
}

//NewEnrollHandler returns the handler chain of an enrollment attempt
func NewEnrollHandler(next ...Handler) Handler {
	return NewValidationHandler(
		NewMemberHandler(
			&EnrollHandler{next: getNext(next)},
		),
	)
}

//NewValidationHandler returns a handler that validates the request
func NewValidationHandler(next ...Handler) *ValidationHandler {
	return &ValidationHandler{next: getNext(next)}
}

//NewMemberHandler returns a handler that resolves the member
func NewMemberHandler(next ...Handler) *MemberHandler {
	return &MemberHandler{next: getNext(next)}
}

func getNext(next []Handler) Handler {
	if len(next) > 0 {
		return next[0]
	}
	return nil
}
