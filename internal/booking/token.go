package booking

import (
	"fmt"
	"strings"

	"cafe-bot/internal/models"
)

// Action is an operator decision verb. The string values are the middle
// segment of decision tokens.
type Action string

const (
	ActionConfirm Action = "confirmar"
	ActionDecline Action = "recusar"
)

// Status returns the terminal status an action resolves a request to.
func (a Action) Status() models.Status {
	if a == ActionConfirm {
		return models.StatusConfirmed
	}
	return models.StatusDeclined
}

// DecisionToken identifies one operator decision: which request, and what
// to do with it. Its wire form is "<kind>_<action>_<id>".
type DecisionToken struct {
	Kind   models.Kind
	Action Action
	ID     string
}

func (t DecisionToken) String() string {
	return fmt.Sprintf("%s_%s_%s", t.Kind, t.Action, t.ID)
}

// ConfirmToken builds the confirm token for a request.
func ConfirmToken(kind models.Kind, id string) DecisionToken {
	return DecisionToken{Kind: kind, Action: ActionConfirm, ID: id}
}

// DeclineToken builds the decline token for a request.
func DeclineToken(kind models.Kind, id string) DecisionToken {
	return DecisionToken{Kind: kind, Action: ActionDecline, ID: id}
}

// ParseDecisionToken parses the wire form of a decision token. Anything
// that does not split into exactly three known segments is rejected as
// malformed; ids may themselves contain underscores, so the split is
// limited to three parts.
func ParseDecisionToken(raw string) (DecisionToken, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return DecisionToken{}, &MalformedTokenError{Token: raw, Reason: "want <kind>_<action>_<id>"}
	}

	kind := models.Kind(parts[0])
	if !kind.Valid() {
		return DecisionToken{}, &MalformedTokenError{Token: raw, Reason: fmt.Sprintf("unknown kind %q", parts[0])}
	}

	action := Action(parts[1])
	if action != ActionConfirm && action != ActionDecline {
		return DecisionToken{}, &MalformedTokenError{Token: raw, Reason: fmt.Sprintf("unknown action %q", parts[1])}
	}

	return DecisionToken{Kind: kind, Action: action, ID: parts[2]}, nil
}
