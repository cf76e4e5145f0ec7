package domain

// Permission names one capability gating a specific action.
type Permission string

const (
	PermViewDashboard       Permission = "verDashboard"
	PermViewOrders          Permission = "verPedidos"
	PermViewCustomers       Permission = "verClientes"
	PermViewProfiles        Permission = "verPerfis"
	PermViewMenu            Permission = "verCardapio"
	PermEditProduct         Permission = "criarEditarProduto"
	PermDeleteProduct       Permission = "excluirProduto"
	PermDeactivateProduct   Permission = "desativarProduto"
	PermViewChat            Permission = "verChat"
	PermSendChat            Permission = "enviarChat"
	PermPrintOrder          Permission = "imprimirPedido"
	PermViewAddress         Permission = "acessarEndereco"
	PermViewOrderTotal      Permission = "visualizarValorPedido"
	PermTrackDeliveries     Permission = "acompanharEntregas"
	PermGenerateReports     Permission = "gerarRelatorios"
	PermManageProfiles      Permission = "gerenciarPerfis"
	PermChangeOrderStatus   Permission = "alterarStatusPedido"
	PermSelectAnyStatus     Permission = "selecionarStatusEspecifico"
	PermCreateUsers         Permission = "criarUsuarios"
	PermEditUsers           Permission = "editarUsuarios"
	PermDeleteUsers         Permission = "excluirUsuarios"
)

var permissionCatalog = []Permission{
	PermViewDashboard,
	PermViewOrders,
	PermViewCustomers,
	PermViewProfiles,
	PermViewMenu,
	PermEditProduct,
	PermDeleteProduct,
	PermDeactivateProduct,
	PermViewChat,
	PermSendChat,
	PermPrintOrder,
	PermViewAddress,
	PermViewOrderTotal,
	PermTrackDeliveries,
	PermGenerateReports,
	PermManageProfiles,
	PermChangeOrderStatus,
	PermSelectAnyStatus,
	PermCreateUsers,
	PermEditUsers,
	PermDeleteUsers,
}

// AllPermissions returns the closed capability catalog.
func AllPermissions() []Permission {
	out := make([]Permission, len(permissionCatalog))
	copy(out, permissionCatalog)
	return out
}

// ParsePermission resolves a capability name, reporting whether it is known.
func ParsePermission(raw string) (Permission, bool) {
	for _, p := range permissionCatalog {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

// PermissionMap records which capabilities a profile grants.
type PermissionMap map[Permission]bool

// Granted reports whether the capability is present and true. Absent
// capabilities default to false.
func (m PermissionMap) Granted(p Permission) bool {
	return m[p]
}

// GrantAll builds a map granting every catalog capability.
func GrantAll() PermissionMap {
	m := make(PermissionMap, len(permissionCatalog))
	for _, p := range permissionCatalog {
		m[p] = true
	}
	return m
}
