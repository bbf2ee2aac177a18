package game

// Outcome 제출 단어에 대한 동기 규칙 검사 결과
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotYourTurn
	OutcomeChainRule
	OutcomeAlreadyUsed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotYourTurn:
		return "not_your_turn"
	case OutcomeChainRule:
		return "chain_rule_violation"
	case OutcomeAlreadyUsed:
		return "already_used"
	default:
		return "unknown"
	}
}
