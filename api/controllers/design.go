package controllers

import (
	"net/http"

	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/api/validators"
	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/internal/preview"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

type previewRequest struct {
	Design    design.Design `json:"design" validate:"required"`
	SizeClass string        `json:"size_class" validate:"required"`
}

// DesignPreview renders the deterministic preview layout for a design. The
// editor, the cart summary, and the order review all call this same
// endpoint, so the three surfaces can never drift apart.
func DesignPreview(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload previewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sizeClass, err := enums.ParseSizeClass(payload.SizeClass)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size class"))
			return
		}

		if err := payload.Design.Validate(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview.Render(payload.Design, sizeClass))
	}
}

// DesignOptions lists the customization vocabulary for the editor: the
// starting design, allowed fonts, tumbler finishes, and size price table.
func DesignOptions() http.HandlerFunc {
	type sizeOption struct {
		Size  enums.TumblerSize `json:"size"`
		Price int               `json:"price"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sizes := make([]sizeOption, 0, len(enums.TumblerSizes()))
		for _, size := range enums.TumblerSizes() {
			price, err := design.PriceFor(size)
			if err != nil {
				continue
			}
			sizes = append(sizes, sizeOption{Size: size, Price: price})
		}

		responses.WriteSuccess(w, map[string]any{
			"default":  design.Default(),
			"fonts":    design.Fonts(),
			"finishes": design.Finishes(),
			"sizes":    sizes,
		})
	}
}
