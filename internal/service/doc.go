// Package service holds the application's flow orchestration: the
// account flows (registration, login, confirmation, password reset) and
// their shared failure discipline. Handlers stay thin; everything that
// spans a transaction lives here.
package service
