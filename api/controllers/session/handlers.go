package session

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pos-register/api/responses"
	"github.com/angelmondragon/pos-register/api/validators"
	"github.com/angelmondragon/pos-register/internal/numpad"
	regsession "github.com/angelmondragon/pos-register/internal/session"
	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/logger"
)

const maxTenderLen = 32

// Catalog lists the products the register can sell.
func Catalog(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		products, err := svc.Catalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProducts(products))
	}
}

// Fetch returns the current register state.
func Fetch(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		responses.WriteSuccess(w, newSnapshot(svc.RegisterID(), svc.Snapshot(r.Context())))
	}
}

// SelectProduct adds one unit of a catalog product to the cart.
func SelectProduct(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		var payload selectProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SelectProduct(r.Context(), strings.TrimSpace(payload.ProductID))
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

// FocusLine points the keypad at a line's quantity or price.
func FocusLine(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		var payload focusLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseEntryTarget(payload.Target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry target"))
			return
		}
		snap, err := svc.FocusLine(r.Context(), strings.TrimSpace(payload.LineID), target)
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

func NumpadKey(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		var payload numpadKeyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		key, err := numpad.ParseKey(payload.Key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.NumpadKey(r.Context(), key)
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

func CommitEntry(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		snap, err := svc.CommitEntry(r.Context())
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

func SetQuantity(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SetQuantity(r.Context(), chi.URLParam(r, "lineId"), *payload.Quantity)
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

func RemoveLine(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		snap, err := svc.RemoveLine(r.Context(), chi.URLParam(r, "lineId"))
		writeSnapshot(w, r, svc, logg, snap, err)
	}
}

// InitiatePayment freezes the cart total into a pending payment session.
func InitiatePayment(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		var payload initiatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.InitiatePayment(r.Context(), validators.SanitizeString(payload.Tender, maxTenderLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, paymentResponse{
			Session:  newPaymentSession(result.Session),
			Snapshot: newSnapshot(svc.RegisterID(), result.Snapshot),
		})
	}
}

// CompletePayment acknowledges the pending settlement and credits loyalty.
func CompletePayment(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		result, err := svc.AcknowledgePaymentComplete(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlementResponse{
			Receipt:  newReceipt(result.Receipt),
			Snapshot: newSnapshot(svc.RegisterID(), result.Snapshot),
		})
	}
}

func CancelPayment(svc regsession.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, logg) {
			return
		}
		result, err := svc.CancelPayment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentResponse{
			Session:  newPaymentSession(result.Session),
			Snapshot: newSnapshot(svc.RegisterID(), result.Snapshot),
		})
	}
}

func available(w http.ResponseWriter, r *http.Request, svc regsession.Service, logg *logger.Logger) bool {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
		return false
	}
	return true
}

func writeSnapshot(w http.ResponseWriter, r *http.Request, svc regsession.Service, logg *logger.Logger, snap regsession.Snapshot, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newSnapshot(svc.RegisterID(), snap))
}
