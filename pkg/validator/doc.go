// Package validator provides small composable validation rules.
//
//	err := validator.Apply(
//		validator.Required("to", req.To),
//		validator.InList("type", req.Type, []string{"text", "image"}),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		// ve.Fields() maps field names to messages
//	}
//
// Rules are evaluated in order and every failure is reported.
package validator
