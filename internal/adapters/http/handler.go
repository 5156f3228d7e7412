package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/dockhook/internal/core/domain"
	"github.com/melih/dockhook/internal/core/ports"
)

// Response bodies.
const (
	helloBody            = "Hello world!"
	missingContainerBody = "Missing container parameter"
	startedBody          = "Container started"
	stoppedBody          = "Container stopped"
	restartedBody        = "Container restarted"
)

// ErrorKindHeader carries a machine-readable classification of error responses.
const ErrorKindHeader = "X-Error-Kind"

// ContainerQuery is the query string accepted by the container routes.
type ContainerQuery struct {
	Container string `query:"container"`
}

type ContainerHandler struct {
	service ports.ContainerService
}

func NewContainerHandler(service ports.ContainerService) *ContainerHandler {
	return &ContainerHandler{service: service}
}

// Hello is the liveness probe for the service itself.
func (h *ContainerHandler) Hello(c *fiber.Ctx) error {
	return c.SendString(helloBody)
}

func (h *ContainerHandler) Healthcheck(c *fiber.Ctx) error {
	name, ok := containerParam(c)
	if !ok {
		return badRequest(c)
	}

	status, err := h.service.Healthcheck(c.Context(), name)
	if err != nil {
		return serverError(c, err)
	}
	return c.SendString(status)
}

func (h *ContainerHandler) Start(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.Start, startedBody)
}

func (h *ContainerHandler) Stop(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.Stop, stoppedBody)
}

func (h *ContainerHandler) Restart(c *fiber.Ctx) error {
	return h.lifecycle(c, h.service.Restart, restartedBody)
}

func (h *ContainerHandler) lifecycle(c *fiber.Ctx, op func(context.Context, string) error, body string) error {
	name, ok := containerParam(c)
	if !ok {
		return badRequest(c)
	}

	if err := op(c.Context(), name); err != nil {
		return serverError(c, err)
	}
	return c.SendString(body)
}

// containerParam extracts the container name. An empty or repeated value is rejected.
func containerParam(c *fiber.Ctx) (string, bool) {
	if len(c.Context().QueryArgs().PeekMulti("container")) > 1 {
		return "", false
	}

	var q ContainerQuery
	if err := c.QueryParser(&q); err != nil {
		return "", false
	}
	return q.Container, q.Container != ""
}

func badRequest(c *fiber.Ctx) error {
	c.Set(ErrorKindHeader, string(domain.KindBadRequest))
	return c.Status(fiber.StatusBadRequest).SendString(missingContainerBody)
}

func serverError(c *fiber.Ctx, err error) error {
	c.Set(ErrorKindHeader, string(domain.Kind(err)))
	return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
}
