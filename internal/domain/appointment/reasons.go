package appointment

const (
	ReasonInvalidActor        = "invalid_actor"
	ReasonShopNotFound        = "shop_not_found"
	ReasonBarberNotInShop     = "barber_not_in_shop"
	ReasonInvalidServices     = "invalid_services"
	ReasonAppointmentNotFound = "appointment_not_found"
	ReasonInvalidState        = "invalid_state"
	ReasonInvalidStatus       = "invalid_status"
)
