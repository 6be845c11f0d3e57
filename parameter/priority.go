package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityInput     = 10
	PriorityKinematic = 20 // After input so controllers steer this substep
	PriorityCollider  = 30 // After kinematics, colliders see this substep's rigid poses
	PrioritySoftBody  = 40 // After collider refresh
	PriorityTransform = 50 // After softbody, propagates centroids and hierarchy
)
