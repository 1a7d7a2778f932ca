package business

import (
	"context"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// PlantBusObj wraps a plant growing on a land.
type PlantBusObj struct {
	busObj[domain.Plant, *domain.Plant]
}

func plantOps(svc *core.Service) ops[domain.Plant] {
	return ops[domain.Plant]{get: svc.GetPlant, create: svc.CreatePlant, update: svc.UpdatePlant, delete: svc.DeletePlant}
}

// NewPlant returns an unsaved PlantBusObj.
func NewPlant(svc *core.Service) *PlantBusObj {
	b := &PlantBusObj{}
	b.wrap(svc, plantOps(svc), domain.Plant{}, false)
	return b
}

// LoadPlant loads the plant with the given ID.
func LoadPlant(ctx context.Context, svc *core.Service, id string) (*PlantBusObj, error) {
	b := NewPlant(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapPlant(svc *core.Service, v domain.Plant) *PlantBusObj {
	b := &PlantBusObj{}
	b.wrap(svc, plantOps(svc), v, true)
	return b
}

// ListPlants returns every stored plant.
func ListPlants(ctx context.Context, svc *core.Service) ([]*PlantBusObj, error) {
	items, err := svc.ListPlants(ctx)
	return wrapAll(items, err, func(v domain.Plant) *PlantBusObj { return wrapPlant(svc, v) })
}

// SetLandID sets LandID.
func (b *PlantBusObj) SetLandID(landID string) *PlantBusObj {
	b.rec.LandID = landID
	return b
}

// SetFlavorID sets FlavorID.
func (b *PlantBusObj) SetFlavorID(flavorID string) *PlantBusObj {
	b.rec.FlavorID = flavorID
	return b
}

// SetOtherFlavor sets OtherFlavor.
func (b *PlantBusObj) SetOtherFlavor(otherFlavor string) *PlantBusObj {
	b.rec.OtherFlavor = otherFlavor
	return b
}

// SetSomeIntVal sets SomeIntVal.
func (b *PlantBusObj) SetSomeIntVal(someIntVal int32) *PlantBusObj {
	b.rec.SomeIntVal = someIntVal
	return b
}

// SetSomeBigIntVal sets SomeBigIntVal.
func (b *PlantBusObj) SetSomeBigIntVal(someBigIntVal int64) *PlantBusObj {
	b.rec.SomeBigIntVal = someBigIntVal
	return b
}

// SetSomeBitVal sets SomeBitVal.
func (b *PlantBusObj) SetSomeBitVal(someBitVal bool) *PlantBusObj {
	b.rec.SomeBitVal = someBitVal
	return b
}

// SetIsEditAllowed sets IsEditAllowed.
func (b *PlantBusObj) SetIsEditAllowed(isEditAllowed bool) *PlantBusObj {
	b.rec.IsEditAllowed = isEditAllowed
	return b
}

// SetIsDeleteAllowed sets IsDeleteAllowed.
func (b *PlantBusObj) SetIsDeleteAllowed(isDeleteAllowed bool) *PlantBusObj {
	b.rec.IsDeleteAllowed = isDeleteAllowed
	return b
}

// SetSomeFloatVal sets SomeFloatVal.
func (b *PlantBusObj) SetSomeFloatVal(someFloatVal float64) *PlantBusObj {
	b.rec.SomeFloatVal = someFloatVal
	return b
}

// SetSomeDecimalVal sets SomeDecimalVal.
func (b *PlantBusObj) SetSomeDecimalVal(someDecimalVal float64) *PlantBusObj {
	b.rec.SomeDecimalVal = someDecimalVal
	return b
}

// SetSomeUTCDateTimeVal sets SomeUTCDateTimeVal.
func (b *PlantBusObj) SetSomeUTCDateTimeVal(someUTCDateTimeVal time.Time) *PlantBusObj {
	b.rec.SomeUTCDateTimeVal = someUTCDateTimeVal
	return b
}

// SetSomeDateVal sets SomeDateVal.
func (b *PlantBusObj) SetSomeDateVal(someDateVal time.Time) *PlantBusObj {
	b.rec.SomeDateVal = someDateVal
	return b
}

// SetSomeMoneyVal sets SomeMoneyVal.
func (b *PlantBusObj) SetSomeMoneyVal(someMoneyVal float64) *PlantBusObj {
	b.rec.SomeMoneyVal = someMoneyVal
	return b
}

// SetSomeNVarCharVal sets SomeNVarCharVal.
func (b *PlantBusObj) SetSomeNVarCharVal(someNVarCharVal string) *PlantBusObj {
	b.rec.SomeNVarCharVal = someNVarCharVal
	return b
}

// SetSomeVarCharVal sets SomeVarCharVal.
func (b *PlantBusObj) SetSomeVarCharVal(someVarCharVal string) *PlantBusObj {
	b.rec.SomeVarCharVal = someVarCharVal
	return b
}

// SetSomeTextVal sets SomeTextVal.
func (b *PlantBusObj) SetSomeTextVal(someTextVal string) *PlantBusObj {
	b.rec.SomeTextVal = someTextVal
	return b
}

// SetSomePhoneNumber sets SomePhoneNumber.
func (b *PlantBusObj) SetSomePhoneNumber(somePhoneNumber string) *PlantBusObj {
	b.rec.SomePhoneNumber = somePhoneNumber
	return b
}

// SetSomeEmailAddress sets SomeEmailAddress.
func (b *PlantBusObj) SetSomeEmailAddress(someEmailAddress string) *PlantBusObj {
	b.rec.SomeEmailAddress = someEmailAddress
	return b
}

// SetSomeUniqueIdentifierVal sets SomeUniqueIdentifierVal.
func (b *PlantBusObj) SetSomeUniqueIdentifierVal(someUniqueIdentifierVal string) *PlantBusObj {
	b.rec.SomeUniqueIdentifierVal = someUniqueIdentifierVal
	return b
}

// Land loads the parent land.
func (b *PlantBusObj) Land(ctx context.Context) (*LandBusObj, error) {
	return LoadLand(ctx, b.svc, b.rec.LandID)
}

// Flavor loads the parent flavor.
func (b *PlantBusObj) Flavor(ctx context.Context) (*FlavorBusObj, error) {
	return LoadFlavor(ctx, b.svc, b.rec.FlavorID)
}
