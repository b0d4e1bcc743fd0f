package testkit

import "icuc/internal/jsast"

// RenderMessage loads prog, calls export with args and renders the result.
func RenderMessage(prog *jsast.Program, export string, args map[string]any) (string, error) {
	rt, err := Load(prog)
	if err != nil {
		return "", err
	}
	v, err := rt.Call(export, args)
	if err != nil {
		return "", err
	}
	return Render(v), nil
}
