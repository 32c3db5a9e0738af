// Package template renders {{ ... }} expressions inside request URLs,
// header values and bodies.
//
// Supported expressions:
//   - {{name}}: a template variable (from config, .env files or the CLI)
//   - {{$NAME}}: an OS environment variable
//   - {{fn(key="value", other='value')}}: a registered function call
//
// Function arguments are named; bare positional arguments are bound to the
// function's declared arguments in order. Every render carries a Purpose
// (preview or send) which functions may use to decide how much work to do.
package template
