package transaction

import (
	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
	"github.com/bankrec/bankrec/internal/user"
)

// CanWrite is the field-level write policy: may a role write a field of the
// given kind while the transaction is in the given lock state?
//
//   - viewer and importer never write transaction fields. The importer's
//     privilege is triggering the import pipeline, not field access.
//   - editor writes manual fields of an unlocked transaction only.
//   - admin writes imported and manual fields regardless of lock state,
//     never calculated ones.
func CanWrite(role user.Role, kind field.Kind, locked bool) bool {
	switch role {
	case user.RoleAdmin:
		return kind != field.KindCalculated
	case user.RoleEditor:
		return kind == field.KindManual && !locked
	default:
		return false
	}
}

// authorize checks every submitted field against the policy and returns the
// ops that may be applied. A single disallowed field fails the whole request;
// nothing is partially applied. The one exception is a calculated field
// submitted by an admin, which is silently dropped rather than rejected.
func authorize(actor *user.User, reg *field.Registry, locked bool, ops []fieldOp) ([]fieldOp, error) {
	allowed := make([]fieldOp, 0, len(ops))

	for _, op := range ops {
		if statusFields[op.name] {
			if actor.Role != user.RoleAdmin {
				return nil, apperr.Authorization("role %s may not write %s", actor.Role, op.name)
			}

			allowed = append(allowed, op)

			continue
		}

		kind, known := reg.Classify(op.name)
		if !known {
			return nil, apperr.Validation(op.name, "unknown field")
		}

		if kind == field.KindCalculated {
			if actor.Role == user.RoleAdmin {
				continue // always re-derived; an admin-submitted value is dropped
			}

			return nil, apperr.Authorization("field %s is calculated and cannot be written", op.name)
		}

		if CanWrite(actor.Role, kind, locked) {
			allowed = append(allowed, op)
			continue
		}

		// Distinguish "locked" from "not yours to touch" for the caller.
		if actor.Role == user.RoleEditor && kind == field.KindManual && locked {
			return nil, apperr.Conflict("transaction is locked")
		}

		return nil, apperr.Authorization("role %s may not write %s field %s", actor.Role, kind, op.name)
	}

	return allowed, nil
}
