package growth_test

import (
	"errors"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/growthsim/internal/growth"
)

func mustNew(p growth.Params) *growth.Simulator {
	GinkgoHelper()
	sim, err := growth.New(p)
	Expect(err).NotTo(HaveOccurred())
	return sim
}

var _ = Describe("Simulator", func() {
	var params growth.Params

	BeforeEach(func() {
		params = growth.DefaultParams()
	})

	Describe("SteadyState", func() {
		It("matches the closed form for the defaults", func() {
			kstar, err := mustNew(params).SteadyState()
			Expect(err).NotTo(HaveOccurred())

			want := math.Pow(0.3*100/0.07, 2)
			Expect(kstar).To(BeNumerically("~", want, 1e-6))
			Expect(kstar).To(BeNumerically("~", 183673.47, 0.01))
		})

		It("returns the same value on every call", func() {
			sim := mustNew(params)
			a, _ := sim.SteadyState()
			b, _ := sim.SteadyState()
			Expect(a).To(Equal(b))
		})

		It("fails when depreciation plus population growth is zero", func() {
			params.PopulationGrowth = -0.05
			params.Depreciation = 0.05

			kstar, err := mustNew(params).SteadyState()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, growth.ErrDomain)).To(BeTrue())

			var domainErr *growth.DomainError
			Expect(errors.As(err, &domainErr)).To(BeTrue())
			Expect(math.IsNaN(kstar) || math.IsInf(kstar, 0)).To(BeFalse())
		})

		It("fails when depreciation plus population growth is negative", func() {
			params.PopulationGrowth = -0.1
			_, err := mustNew(params).SteadyState()
			Expect(err).To(MatchError(growth.ErrDomain))
		})

		It("fails when the capital share is one", func() {
			params.CapitalShare = 1
			_, err := mustNew(params).SteadyState()
			Expect(err).To(MatchError(growth.ErrDomain))
		})
	})

	Describe("Step", func() {
		It("applies the accumulation rule once", func() {
			next, err := mustNew(params).Step(50)
			Expect(err).NotTo(HaveOccurred())

			want := 50 + 0.3*100*math.Sqrt(50) - 0.07*50
			Expect(next).To(BeNumerically("~", want, 1e-12))
		})

		It("keeps the steady state fixed", func() {
			sim := mustNew(params)
			kstar, err := sim.SteadyState()
			Expect(err).NotTo(HaveOccurred())

			next, err := sim.Step(kstar)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(next-kstar) / kstar).To(BeNumerically("<", 1e-9))
		})

		It("maps zero capital to zero", func() {
			next, err := mustNew(params).Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(0.0))
		})

		It("rejects negative capital under a fractional share", func() {
			_, err := mustNew(params).Step(-1)
			Expect(err).To(MatchError(growth.ErrNumeric))

			var numErr *growth.NumericError
			Expect(errors.As(err, &numErr)).To(BeTrue())
			Expect(numErr.Period).To(Equal(-1))
			Expect(numErr.Capital).To(Equal(-1.0))
		})

		It("accepts negative capital when the share is one", func() {
			params.CapitalShare = 1
			next, err := mustNew(params).Step(-10)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(BeNumerically("~", -10+0.3*100*-10-0.07*-10, 1e-9))
		})

		It("rejects updates that overflow", func() {
			params.Labor = math.MaxFloat64
			params.Savings = 0.9
			_, err := mustNew(params).Step(math.MaxFloat64)
			Expect(err).To(MatchError(growth.ErrNumeric))
		})
	})

	Describe("Simulate", func() {
		It("returns Periods+1 values starting at the initial capital", func() {
			path, err := mustNew(params).Simulate()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(HaveLen(params.Periods + 1))
			Expect(path[0]).To(Equal(params.InitialCapital))
		})

		It("is deterministic", func() {
			sim := mustNew(params)
			first, err := sim.Simulate()
			Expect(err).NotTo(HaveOccurred())
			second, err := sim.Simulate()
			Expect(err).NotTo(HaveOccurred())

			Expect(cmp.Diff(first, second)).To(BeEmpty())

			other, err := mustNew(params).Simulate()
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(first, other)).To(BeEmpty())
		})

		It("hands back a fresh slice on each call", func() {
			sim := mustNew(params)
			first, _ := sim.Simulate()
			first[1] = -42
			second, _ := sim.Simulate()
			Expect(second[1]).NotTo(Equal(-42.0))
		})

		It("rises monotonically toward the steady state from below", func() {
			sim := mustNew(params)
			kstar, err := sim.SteadyState()
			Expect(err).NotTo(HaveOccurred())

			path, err := sim.Simulate()
			Expect(err).NotTo(HaveOccurred())

			for t := 1; t < len(path); t++ {
				Expect(path[t]).To(BeNumerically(">=", path[t-1]), "period %d", t)
				Expect(path[t]).To(BeNumerically("<=", kstar), "period %d", t)
			}
			Expect(math.Abs(path[100] - kstar)).To(BeNumerically("<", math.Abs(path[0]-kstar)))
		})

		It("runs every period even at the steady state", func() {
			sim := mustNew(params)
			kstar, _ := sim.SteadyState()
			params.InitialCapital = kstar

			path, err := mustNew(params).Simulate()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(HaveLen(params.Periods + 1))
			for _, k := range path {
				Expect(math.Abs(k-kstar) / kstar).To(BeNumerically("<", 1e-9))
			}
		})

		It("returns only the initial capital for zero periods", func() {
			params.Periods = 0
			path, err := mustNew(params).Simulate()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(growth.Path{params.InitialCapital}))
		})

		It("stays at zero from a zero seed", func() {
			params.InitialCapital = 0
			path, err := mustNew(params).Simulate()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(HaveLen(params.Periods + 1))
			for _, k := range path {
				Expect(k).To(Equal(0.0))
			}
		})

		It("aborts with the failing period when capital turns negative", func() {
			params.Savings = 0.1
			params.Labor = 1
			params.Depreciation = 3
			params.PopulationGrowth = 0

			path, err := mustNew(params).Simulate()
			Expect(path).To(BeNil())
			Expect(err).To(MatchError(growth.ErrNumeric))

			var numErr *growth.NumericError
			Expect(errors.As(err, &numErr)).To(BeTrue())
			Expect(numErr.Period).To(Equal(1))
			Expect(numErr.Capital).To(BeNumerically("<", 0))
			Expect(err.Error()).To(ContainSubstring("period 1"))
		})
	})

	Describe("Breakdown", func() {
		It("splits each period into investment and break-even terms", func() {
			sim := mustNew(params)
			path, err := sim.Simulate()
			Expect(err).NotTo(HaveOccurred())

			flows := sim.Breakdown(path)
			Expect(flows).To(HaveLen(len(path)))
			for t := 0; t < len(path)-1; t++ {
				Expect(flows[t].Period).To(Equal(t))
				Expect(path[t] + flows[t].Net()).To(BeNumerically("~", path[t+1], 1e-6))
			}
		})
	})

	Describe("Gap", func() {
		It("shrinks along a converging path", func() {
			sim := mustNew(params)
			path, _ := sim.Simulate()

			gaps, err := sim.Gap(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(gaps[len(gaps)-1]).To(BeNumerically("<", gaps[0]))
		})

		It("propagates the steady-state domain error", func() {
			params.PopulationGrowth = -0.05
			sim := mustNew(params)
			path, err := sim.Simulate()
			Expect(err).NotTo(HaveOccurred())

			_, err = sim.Gap(path)
			Expect(err).To(MatchError(growth.ErrDomain))
		})
	})
})
