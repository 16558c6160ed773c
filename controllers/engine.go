package controllers

import "github.com/plotnest/syndicate/allocation"

// AllocationEngine is the process-wide share book registry, assigned at
// boot before the router starts serving.
var AllocationEngine *allocation.Engine
