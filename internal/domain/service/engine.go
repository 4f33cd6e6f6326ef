package service

// Engine bundles the stateless calculation services the use cases share.
type Engine struct {
	Generator  *ScheduleGenerator
	Normalizer *RateNormalizer
	Validator  *ConsistencyValidator
	Allocator  *RepaymentAllocator
	Deriver    *StatusDeriver
}

// NewEngine returns an Engine with every service constructed.
func NewEngine() *Engine {
	return &Engine{
		Generator:  NewScheduleGenerator(),
		Normalizer: NewRateNormalizer(),
		Validator:  NewConsistencyValidator(),
		Allocator:  NewRepaymentAllocator(),
		Deriver:    NewStatusDeriver(),
	}
}
