package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/credential"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

type CertificateAggregateDeps struct {
	Base   BaseDeps
	Stores Stores
}

type certificateAggregate struct {
	deps CertificateAggregateDeps
	flow completionFlow
}

func NewCertificateAggregate(deps CertificateAggregateDeps) domainagg.CertificateAggregate {
	deps.Base = deps.Base.withDefaults()
	return &certificateAggregate{deps: deps, flow: completionFlow{s: deps.Stores}}
}

func (a *certificateAggregate) Contract() domainagg.Contract {
	return domainagg.CertificateAggregateContract
}

func (a *certificateAggregate) EvaluateAndIssue(ctx context.Context, in domainagg.EvaluateCertificateInput) (domainagg.EvaluateCertificateResult, error) {
	const op = "certificate.evaluate_and_issue"
	out := domainagg.EvaluateCertificateResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.UserID == uuid.Nil || in.CourseID == 0 {
		return out, MapError(op, ValidationError("user_id and course_id are required"))
	}
	at := a.deps.Base.at(in.At)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res, err := a.flow.evaluateFor(dbc, in.UserID, in.CourseID, at)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domainagg.EvaluateCertificateResult{}, err
	}
	if out.Certificate != nil && !out.AlreadyIssued {
		a.deps.Base.Log.Info("certificate issued",
			"course_id", in.CourseID,
			"user_id", in.UserID.String(),
			"certificate_number", out.Certificate.CertificateNumber,
		)
	}
	return out, nil
}

func (a *certificateAggregate) Revoke(ctx context.Context, in domainagg.RevokeCertificateInput) (*credential.Certificate, error) {
	const op = "certificate.revoke"
	if err := a.validate(op); err != nil {
		return nil, err
	}
	if in.CertificateID == 0 {
		return nil, MapError(op, ValidationError("certificate_id is required"))
	}
	at := a.deps.Base.at(in.At)

	var out *credential.Certificate
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cert, err := a.deps.Stores.Certificates.LockByID(dbc, in.CertificateID)
		if err != nil {
			return err
		}
		if cert == nil {
			return NotFoundError(fmt.Sprintf("certificate %d not found", in.CertificateID))
		}
		out = cert
		if !cert.IsActive {
			return nil
		}
		if err := a.deps.Stores.Certificates.UpdateFields(dbc, cert.ID, map[string]interface{}{
			"is_active":  false,
			"revoked_at": at,
			"updated_at": at,
		}); err != nil {
			return err
		}
		cert.IsActive = false
		cert.RevokedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *certificateAggregate) validate(op string) error {
	if a == nil || !a.deps.Stores.complete() {
		return domainagg.NewError(domainagg.CodeInternal, op, "certificate aggregate dependencies are not configured", nil)
	}
	return nil
}
