package item

import "strings"

// Rarity is the rarity class printed on the item.
type Rarity string

const (
	RarityNormal         Rarity = "normal"
	RarityMagic          Rarity = "magic"
	RarityRare           Rarity = "rare"
	RarityUnique         Rarity = "unique"
	RarityUniqueRelic    Rarity = "uniquefoil"
	RarityCurrency       Rarity = "currency"
	RarityGem            Rarity = "gem"
	RarityDivinationCard Rarity = "divinationcard"
	RarityNonUnique      Rarity = "nonunique"
)

// IsUnique reports both unique rarities.
func (r Rarity) IsUnique() bool {
	return r == RarityUnique || r == RarityUniqueRelic
}

// Category is the trade category of a base item type. Subcategories are
// dotted below their parent ("armour.helmet").
type Category string

const (
	CategoryWeapon            Category = "weapon"
	CategoryWeaponOneMelee    Category = "weapon.onemelee"
	CategoryWeaponTwoMelee    Category = "weapon.twomelee"
	CategoryWeaponBow         Category = "weapon.bow"
	CategoryWeaponClaw        Category = "weapon.claw"
	CategoryWeaponDagger      Category = "weapon.dagger"
	CategoryWeaponRuneDagger  Category = "weapon.runedagger"
	CategoryWeaponOneAxe      Category = "weapon.oneaxe"
	CategoryWeaponOneMace     Category = "weapon.onemace"
	CategoryWeaponOneSword    Category = "weapon.onesword"
	CategoryWeaponSceptre     Category = "weapon.sceptre"
	CategoryWeaponStaff       Category = "weapon.staff"
	CategoryWeaponWarstaff    Category = "weapon.warstaff"
	CategoryWeaponTwoAxe      Category = "weapon.twoaxe"
	CategoryWeaponTwoMace     Category = "weapon.twomace"
	CategoryWeaponTwoSword    Category = "weapon.twosword"
	CategoryWeaponWand        Category = "weapon.wand"
	CategoryArmour            Category = "armour"
	CategoryArmourChest       Category = "armour.chest"
	CategoryArmourBoots       Category = "armour.boots"
	CategoryArmourGloves      Category = "armour.gloves"
	CategoryArmourHelmet      Category = "armour.helmet"
	CategoryArmourShield      Category = "armour.shield"
	CategoryArmourQuiver      Category = "armour.quiver"
	CategoryAccessory         Category = "accessory"
	CategoryAccessoryAmulet   Category = "accessory.amulet"
	CategoryAccessoryBelt     Category = "accessory.belt"
	CategoryAccessoryRing     Category = "accessory.ring"
	CategoryGem               Category = "gem"
	CategoryGemActive         Category = "gem.activegem"
	CategoryGemSupport        Category = "gem.supportgem"
	CategoryJewel             Category = "jewel"
	CategoryJewelAbyss        Category = "jewel.abyss"
	CategoryJewelCluster      Category = "jewel.cluster"
	CategoryFlask             Category = "flask"
	CategoryMap               Category = "map"
	CategoryMapFragment       Category = "map.fragment"
	CategoryMapScarab         Category = "map.scarab"
	CategoryWatchstone        Category = "watchstone"
	CategoryProphecy          Category = "prophecy"
	CategoryCard              Category = "card"
	CategoryMonsterSample     Category = "monster.sample"
	CategoryCurrency          Category = "currency"
	CategoryCurrencyFossil    Category = "currency.fossil"
	CategoryCurrencyResonator Category = "currency.resonator"
	CategoryHeistContract     Category = "heistmission.contract"
	CategoryHeistBlueprint    Category = "heistmission.blueprint"
	CategoryHeistTool         Category = "heistequipment.heisttool"
	CategoryExpeditionLogbook Category = "expedition.logbook"
	CategorySentinel          Category = "sentinel"
)

// Is reports whether c is parent or one of its subcategories.
func (c Category) Is(parent Category) bool {
	return c == parent || strings.HasPrefix(string(c), string(parent)+".")
}

// IsEquipment covers the categories that roll affixes.
func (c Category) IsEquipment() bool {
	return c.Is(CategoryWeapon) || c.Is(CategoryArmour) || c.Is(CategoryAccessory) ||
		c.Is(CategoryJewel) || c.Is(CategoryFlask)
}
