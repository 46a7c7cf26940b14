package service

// JobGuard exposes the guard to the black-box tests.
type JobGuard = jobGuard
