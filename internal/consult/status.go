package consult

// BookingStatus — статус заявки на консультацию.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"   // ожидает решения преподавателя
	StatusApproved  BookingStatus = "approved"  // одобрено преподавателем
	StatusRejected  BookingStatus = "rejected"  // отклонено преподавателем
	StatusCompleted BookingStatus = "completed" // консультация проведена / закрыта
)

// RejectedPurpose — фиксированное значение поля purpose после отклонения заявки.
const RejectedPurpose = "rejected"

// transitions описывает рёбра конечного автомата статусов.
// rejected -> completed разрешён: административное закрытие отклонённой заявки.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted},
	StatusRejected:  {StatusCompleted},
	StatusCompleted: {},
}

// Valid сообщает, известен ли статус автомату.
func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsOccupying: заявка в этом статусе занимает место в слоте
// и учитывается при проверке вместимости.
func (s BookingStatus) IsOccupying() bool {
	return s == StatusPending || s == StatusApproved
}

// OccupyingStatuses — статусы, занимающие место в слоте.
func OccupyingStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusApproved}
}

// IsTerminal: статус без дальнейших переходов в нормальном потоке
// (rejected сохраняет единственный административный выход в completed).
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// CanTransition сообщает, допустим ли переход from -> to.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
