package frame

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Scheduler", func() {
	var (
		mockCtrl *gomock.Controller
		s        *Scheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		s = NewScheduler(time.Millisecond)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject a non-positive period", func() {
		Expect(func() { NewScheduler(0) }).To(Panic())
	})

	It("should report an empty frame loop", func() {
		Expect(s.Step()).To(BeFalse())
	})

	It("should tick in registration order", func() {
		var order []int

		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().DoAndReturn(func() bool {
			order = append(order, 1)
			return true
		})

		t2 := NewMockTicker(mockCtrl)
		t2.EXPECT().Tick().DoAndReturn(func() bool {
			order = append(order, 2)
			return true
		})

		s.Register(t1)
		s.Register(t2)

		Expect(s.Step()).To(BeTrue())
		Expect(order).To(Equal([]int{1, 2}))
	})

	It("should drop retired tickers", func() {
		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().Return(false)

		t2 := NewMockTicker(mockCtrl)
		t2.EXPECT().Tick().Return(true).Times(2)

		s.Register(t1)
		s.Register(t2)

		Expect(s.Step()).To(BeTrue())
		Expect(s.Step()).To(BeTrue())
	})

	It("should stop reporting work once every ticker has retired", func() {
		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().Return(false)

		s.Register(t1)

		Expect(s.Step()).To(BeFalse())
	})

	It("should allow re-registering a retired ticker", func() {
		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().Return(false).Times(2)

		s.Register(t1)
		Expect(s.Step()).To(BeFalse())

		s.Register(t1)
		Expect(s.Step()).To(BeFalse())
	})

	It("should run until every ticker retires", func() {
		remaining := 3
		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().DoAndReturn(func() bool {
			remaining--
			return remaining > 0
		}).Times(3)

		s.Register(t1)

		done := make(chan struct{})
		go func() {
			s.Run()
			close(done)
		}()

		Eventually(done).Should(BeClosed())
		Expect(remaining).To(Equal(0))
	})

	It("should stop on request", func() {
		t1 := NewMockTicker(mockCtrl)
		t1.EXPECT().Tick().Return(true).AnyTimes()

		s.Register(t1)

		done := make(chan struct{})
		go func() {
			s.Run()
			close(done)
		}()

		Consistently(done, 10*time.Millisecond).ShouldNot(BeClosed())

		s.Stop()
		s.Stop()
		Eventually(done).Should(BeClosed())
	})
})
