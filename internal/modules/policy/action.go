package policy

// Action is something a user attempts against a vendor's resources.
type Action int

const (
	ActionListProducts Action = iota + 1
	ActionRetrieveProduct
	ActionCreateProduct
	ActionUpdateProduct
	ActionDeleteProduct
	ActionListOrders
	ActionRetrieveOrder
	ActionCreateOrder
	ActionUpdateOrderFields
	ActionUpdateOrderStatus
	ActionCancelOrder
	ActionDeleteOrder
	ActionListRoles
	ActionAssignRole
)

var actionNames = map[Action]string{
	ActionListProducts:      "list_products",
	ActionRetrieveProduct:   "retrieve_product",
	ActionCreateProduct:     "create_product",
	ActionUpdateProduct:     "update_product",
	ActionDeleteProduct:     "delete_product",
	ActionListOrders:        "list_orders",
	ActionRetrieveOrder:     "retrieve_order",
	ActionCreateOrder:       "create_order",
	ActionUpdateOrderFields: "update_order_fields",
	ActionUpdateOrderStatus: "update_order_status",
	ActionCancelOrder:       "cancel_order",
	ActionDeleteOrder:       "delete_order",
	ActionListRoles:         "list_roles",
	ActionAssignRole:        "assign_role",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown_action"
}

// targetsExisting reports whether the action operates on one already stored
// resource, as opposed to listing or creating.
func (a Action) targetsExisting() bool {
	switch a {
	case ActionListProducts, ActionCreateProduct, ActionListOrders, ActionCreateOrder,
		ActionListRoles, ActionAssignRole:
		return false
	}
	return true
}
