package interfaces

// SchedulerInterface drives the archive lifecycle: Restore once at boot,
// periodic persist and prune jobs between Init and Stop, Persist once more
// at shutdown.
type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
