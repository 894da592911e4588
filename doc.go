// Package procos provides a userspace process-orchestration runtime.
//
// The runtime tracks process lifecycles from creation through termination
// and comes with pluggable service layers such as:
//
//   - manager   – lifecycle composition (create, terminate, priorities)
//   - scheduler – logical CPU scheduling with round-robin, priority and
//     fair policies
//   - allocator – recycling process identifier allocation
//   - cleanup   – ordered resource teardown across registered handlers
//   - sandbox   – capability checks applied at process creation
//
// Procos is designed to be embedded in host applications.  End-users
// typically interact with the runtime via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := procos.New(procos.WithPolicy(scheduler.PolicyRoundRobin))
//	id, _ := srv.Create(ctx, "worker", 128, nil)
//	next, _ := srv.ScheduleNext(ctx)
//	_ = srv.Terminate(ctx, id)
//
// For more details see the README and individual sub-packages.
package procos
