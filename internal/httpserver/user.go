package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
	"github.com/Skotchmaster/catalog/internal/validation"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) FindAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.find_all")

	pr := util.ParsePageRequest(c.QueryParams(), repo.UserSortColumns)
	items, total, err := h.Svc.FindAll(ctx, pr)
	if err != nil {
		return serviceError(l, "find_users_error", err)
	}
	return c.JSON(http.StatusOK, transport.MapPage(items, total, pr, transport.NewUserDTO))
}

func (h *UserHTTP) FindByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.find_by_id")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		return serviceError(l, "find_user_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserDTO(u))
}

func (h *UserHTTP) Insert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.insert")

	var dto transport.UserInsertDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "insert_user_error", err)
	}
	if err := validation.Merge(c.Validate(&dto), h.Svc.CheckInsert(ctx, dto.Email)); err != nil {
		return serviceError(l, "insert_user_error", err)
	}

	u, err := h.Svc.Insert(ctx, dto.Model(), dto.Password, dto.RoleIDs())
	if err != nil {
		return serviceError(l, "insert_user_error", err)
	}

	l.Info("insert_user_success", "id", u.ID)
	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+strconv.FormatInt(u.ID, 10))
	return c.JSON(http.StatusCreated, transport.NewUserDTO(u))
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var dto transport.UserUpdateDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "update_user_error", err)
	}
	if err := validation.Merge(c.Validate(&dto), h.Svc.CheckUpdate(ctx, id, dto.Email)); err != nil {
		return serviceError(l, "update_user_error", err)
	}

	u, err := h.Svc.Update(ctx, id, dto.Model(), dto.RoleIDs())
	if err != nil {
		return serviceError(l, "update_user_error", err)
	}

	l.Info("update_user_success", "id", id)
	return c.JSON(http.StatusOK, transport.NewUserDTO(u))
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(l, "delete_user_error", err)
	}

	l.Info("delete_user_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) Roles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.find_all")

	roles, err := h.Svc.Roles(ctx)
	if err != nil {
		return serviceError(l, "find_roles_error", err)
	}
	out := make([]transport.RoleDTO, 0, len(roles))
	for i := range roles {
		out = append(out, transport.NewRoleDTO(&roles[i]))
	}
	return c.JSON(http.StatusOK, out)
}
