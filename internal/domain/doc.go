// Package domain contains the core entities of the application:
// users, tasks and their state machine, single-use lifecycle codes,
// and invitations. Entities validate themselves and carry no
// persistence concerns.
package domain
