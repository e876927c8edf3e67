/*
Package cactusref implements single-threaded, cycle-aware, reference-counted
shared pointers.

The type Rc[T] provides shared ownership of a value of type T. Calling Clone
on an Rc produces a new handle to the same allocation. When the last
externally reachable handle to an allocation is dropped, the value is
destroyed.

Unlike a conventional reference-counted pointer, Rc can detect and reclaim
orphaned cycles of strong references through the use of Adopt and Unadopt.
Handles are not safe to share between goroutines; the package performs no
synchronization.

# Building an object graph

Rc handles can be used to implement data structures whose nodes own strong
references to one another, including structures that are cyclic: doubly
linked lists, ring buffers, graphs with back-edges. Such structures leak
under plain reference counting because every node of a cycle keeps a nonzero
count alive. cactusref reclaims them, provided the program declares its
ownership edges.

Adopt(owner, owned) records that owner's value holds a strong handle to
owned's allocation. Adoption is bookkeeping only: it never touches a
reference count. The strong count is carried by the Clone that was stored in
the owner's value; Adopt merely tells the collector that the clone is there.
Each call records one more owned clone, so a value holding three clones of
the same allocation should adopt it three times. Unadopt removes one such
record and should be called when an owned clone is dropped or overwritten.

Failing to call Unadopt is safe but can leak: the stale edge keeps the
reachability trace believing the cycle is still wired up. Calling Adopt
without actually holding the claimed clone breaks the collector's invariants
and can tear down allocations that are still in use; when the payload can
enumerate its handles through the Tracer interface, AdoptTraced checks the
claim before recording it.

# Cycle detection

Dropping a handle whose allocation has no recorded edges behaves exactly
like a conventional reference-counted pointer. Dropping the last strong
handle of an allocation with recorded edges excises it from the adoption
graph and reclaims it without a trace. Dropping any other handle of an
allocation with recorded edges triggers a breadth-first trace over the
adoption graph. The
trace gathers the clique of allocations reachable over forward and loopback
edges together with the number of strong references each member receives
from inside the clique. If every member's strong count is covered by its
clique-internal references, the cycle is orphaned: no handle outside the
clique can reach it, so the whole clique is torn down. If even one member
has an extra strong count, the clique is externally reachable and the drop
leaves it untouched.

Teardown zeroes every member's counters before any payload destructor runs.
Destructors therefore observe a graph in which every other member is already
dead, and the handles they drop short-circuit instead of re-entering the
collector. This is what makes destructor re-entrancy safe at arbitrary
depth.

Tracing costs O(edges + members) and runs only when an allocation with
recorded edges is dropped. Programs that never adopt pay nothing.

# Destructors

A payload whose type implements Destroyer has its Destroy method called
exactly once, when its allocation is reclaimed. Destroy is the place to drop
the strong handles the payload owns; handles reclaimed as part of the same
cycle no-op.

# Weak handles

Downgrade returns a Weak[T], a non-owning handle. Upgrade returns a strong
handle while the target is alive and reports expired afterward, including
when the target was reclaimed as part of a cycle. The control block of an
allocation outlives its value for as long as weak handles remain.

Set the CACTUS_LOG environment variable to a level name ("debug", "trace")
to have the collector narrate its decisions on standard error.
*/
package cactusref
