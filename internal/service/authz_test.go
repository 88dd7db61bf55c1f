package service_test

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/store/model"
)

var _ = Describe("access policy", func() {
	var (
		operator  *model.User
		requester *model.User
		job       *model.Job
	)

	BeforeEach(func() {
		operator = &model.User{ID: uuid.New(), Username: "op", Role: model.RoleOperator}
		requester = &model.User{ID: uuid.New(), Username: "req", Role: model.RoleRequester}
		job = &model.Job{ID: uuid.New(), OwnerID: requester.ID, Status: model.JobStatusPending}
	})

	It("lets the operator administer any job", func() {
		ops := []service.Operation{
			service.OpViewJob, service.OpCompleteJob, service.OpCancelJob,
			service.OpSetOperatorMessage, service.OpPostMessage,
			service.OpReadMessages, service.OpResolveProblem,
		}
		for _, op := range ops {
			Expect(service.Authorize(operator, op, job)).To(BeNil())
		}
	})

	It("keeps owner operations away from the operator", func() {
		for _, op := range []service.Operation{service.OpEditJob, service.OpFileProblem} {
			err := service.Authorize(operator, op, job)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		}
	})

	It("lets the owner act on their own job", func() {
		ops := []service.Operation{
			service.OpViewJob, service.OpEditJob, service.OpPostMessage,
			service.OpReadMessages, service.OpFileProblem,
		}
		for _, op := range ops {
			Expect(service.Authorize(requester, op, job)).To(BeNil())
		}
	})

	It("keeps administration operations away from requesters, owner or not", func() {
		ops := []service.Operation{
			service.OpCompleteJob, service.OpCancelJob,
			service.OpSetOperatorMessage, service.OpResolveProblem,
		}
		for _, op := range ops {
			err := service.Authorize(requester, op, job)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		}
	})

	It("rejects a requester acting on someone else's job", func() {
		stranger := &model.User{ID: uuid.New(), Role: model.RoleRequester}
		err := service.Authorize(stranger, service.OpViewJob, job)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
	})

	It("rejects an anonymous actor", func() {
		err := service.Authorize(nil, service.OpViewJob, job)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
	})
})
