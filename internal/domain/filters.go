package domain

// ProductFilter фильтр для получения списка продуктов.
// Name и Keywords взаимоисключающие: точный подстрочный поиск либо
// поиск по любому из слов.
type ProductFilter struct {
	Name     *string  // Подстрочный поиск по названию (опционально)
	Keywords []string // Поиск по любому слову в названии или описании
	Limit    uint64   // Максимум записей на страницу; 0 = значение по умолчанию
	Offset   uint64   // Смещение для пагинации
}

// RentalFilter фильтр для получения списка аренд
type RentalFilter struct {
	UserID          *int64        // Фильтр по арендатору (опционально)
	Status          *RentalStatus // Фильтр по статусу (опционально)
	ExcludeRentalID *int64        // Исключить конкретную аренду (для превью обновления)
	OnlyConsuming   bool          // Только аренды, занимающие доступность (ready и active)
	Limit           uint64        // Максимум записей на страницу; 0 = без ограничения
	Offset          uint64        // Смещение для пагинации
}
