package offer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Offer распределение аренды по экземплярам и его суммарная стоимость.
// TotalCost включает штрафы за смены экземпляров.
type Offer struct {
	Instances map[string][]domain.DateRange
	TotalCost decimal.Decimal
}

// BestOffer находит минимальную по стоимости комбинацию экземпляров,
// покрывающую запрошенное окно [from, to] (обе границы включительно),
// с платной сменой экземпляра посреди окна.
//
// instances — свободные (rentable) диапазоны по каждому экземпляру;
// exchangeCost — штраф за каждую смену экземпляра.
//
// Результат — распределение: для каждого задействованного экземпляра
// конкретные диапазоны дат с ценой за день. Граф строится, используется и
// отбрасывается внутри одного вызова; BestOffer чистая функция над снапшотом.
func BestOffer(instances map[string][]domain.DateRange, exchangeCost decimal.Decimal, from, to types.Date) (*Offer, error) {
	if to.Before(from) {
		return nil, ErrInvalidPeriod
	}
	if exchangeCost.IsNegative() {
		return nil, fmt.Errorf("%w: exchangeCost=%s", ErrNegativeCost, exchangeCost)
	}
	for instanceID, availability := range instances {
		for _, r := range availability {
			if r.Price.IsNegative() {
				return nil, fmt.Errorf("%w: instance %s has price %s", ErrNegativeCost, instanceID, r.Price)
			}
		}
	}

	p := prepare(instances, from, to)
	g := buildGraph(p, exchangeCost)

	path, cost, err := shortestPath(g, nodeStart, nodeEnd)
	if err != nil {
		return nil, err
	}

	return &Offer{
		Instances: decodePath(path, p),
		TotalCost: cost,
	}, nil
}
