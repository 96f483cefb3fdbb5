package metrics

const (
	WindowEvaluationsH = "The total number of transmission setpoint evaluations"
	WindowEvaluationsN = "ecwindow_evaluations"
	WindowErrorsH      = "The total number of failed evaluations, by error kind"
	WindowErrorsN      = "ecwindow_evaluation_errors"
	WindowUnchangedH   = "The total number of evaluations mapped to an unchanged transmission level"
	WindowUnchangedN   = "ecwindow_unchanged_decisions"
	WindowSetpointH    = "The distribution of crisp transmission setpoints"
	WindowSetpointN    = "ecwindow_setpoint"
	WindowRulesFiredH  = "The total number of rules fired with nonzero strength"
	WindowRulesFiredN  = "ecwindow_rules_fired"
)
